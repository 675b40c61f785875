// Package bridge provides the in-memory data model and operation dispatch
// for the agent bridge.
//
// # Overview
//
// The bridge is the shared state system through which named agents (for
// example "cascade" and "codex") coordinate: they exchange addressed
// messages, hand off tasks with a bounded status lifecycle, and read or
// update a single shared context record. All state lives in process
// memory for the lifetime of the server; nothing is ever deleted, giving
// a complete audit trail of everything the agents said and did.
//
// # Core Concepts
//
// Messages are addressed, timestamped notes from one agent to another.
// A message stays stored after delivery; reading it only flips its read
// flag. The recipient "all" broadcasts to every agent.
//
// Tasks are discrete units of work with a creator, an assignee, and a
// status that moves between pending, in_progress, completed and blocked.
// Creating a task and completing a task each emit a notification message
// to the other party automatically.
//
// SharedContext is a singleton record of what the agents are currently
// working on: branch, active files, recent changes and free-form notes.
// Updates are partial - omitted fields are left untouched.
//
// # State Ownership
//
// All three stores hang off a State value constructed once at process
// start and owned by the Dispatcher. There is no package-level mutable
// state, so independent State values can coexist in tests. Each store
// guards its data with its own mutex; message queries never contend with
// task updates.
//
// # Usage Example
//
//	state := bridge.NewState()
//	d := bridge.NewDispatcher(state)
//
//	res, err := d.SendMessage(bridge.SendMessageRequest{
//		From:    "cascade",
//		To:      "codex",
//		Content: "header fix is ready for review",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.MessageID)
//
// The protocol layer calls Dispatch with an operation name and a raw
// JSON argument payload; every error becomes a data-carrying error
// result so the caller always receives a well-formed response.
package bridge
