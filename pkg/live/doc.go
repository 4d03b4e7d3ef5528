// Package live pushes store state to WebSocket clients.
//
// A Server owns one purview store and a dispatch loop: a single goroutine on
// which every store write, selector evaluation, and observer attach/detach
// runs. That confinement is what the purview core requires; transports on
// other goroutines hand work to the loop with Dispatch.
//
// The host registers named views (selectors) over the state:
//
//	srv := live.NewServer(store, live.Config{})
//	srv.RegisterView("count", func(s *AppState) any { return s.Count })
//
// Each WebSocket client subscribes to a set of views and becomes an
// observer: a change to any subscribed view wakes the connection, which
// re-evaluates its selectors and pushes an update frame. Views the client
// did not subscribe to never cost it a frame.
package live
