package redis

// Every key of a session partition is prefixed by the session ID so a logout
// can drop the whole partition in one transaction.
func sessionKey(sid string) string       { return "session:" + sid }
func tokensKey(sid string) string        { return "session:" + sid + ":tokens" }
func intentIndexKey(sid string) string   { return "session:" + sid + ":intents" }
func notificationsKey(sid string) string { return "session:" + sid + ":notifications" }

func intentKey(id string) string { return "intent:" + id }
