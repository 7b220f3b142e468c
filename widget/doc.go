// Package widget implements the interaction layer of the social app:
// optimistic like/follow/save toggles with server reconciliation,
// debounced search, provisional comment and message appending, the
// post-creation wizard, the share sheet, and the new-message modal.
//
// Every widget belongs to a Scope. The scope serializes all state
// changes through one dispatch queue: gesture handlers and request
// continuations run one at a time, never concurrently. Widgets render
// purely as patch instructions; they hold their own state and never
// read it back out of the page.
package widget
