// Package api provides typed wrappers over the gateway for the social
// endpoints: toggles (like, follow, save, comment-like), comment and
// message submission, search, conversation creation, post sharing, and
// multipart post creation.
//
// Responses are inspected tolerantly: missing fields decode to zero
// values, and a toggle response without a success indicator is reported
// as unconfirmed rather than failing.
package api
