// Package websocket provides the live state feed for river crossing
// sessions.
//
// A central Hub owns every connection. Clients subscribe to one session
// with the sessionId query parameter and receive a JSON Message after each
// successful mutation of that session:
//
//	{"session_id": "ab12", "event": "state_update", "snapshot": {...}}
//
// The feed is read-only. Incoming frames only refresh the read deadline.
//
// Concurrency:
//
// Registration, unregistration and broadcasts are all serialised through
// the Run loop, so the session map is never shared. Clients whose send
// buffer fills up are dropped. Run returns when its context is cancelled
// and closes every client on the way out.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("sessionId"))
//	})
package websocket
