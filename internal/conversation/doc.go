// Package conversation parses exported chat archives and reconstructs the
// linear history of each conversation.
//
// An archive is a JSON array of conversations. Each conversation stores its
// messages as a tree: a mapping from node id to node, where every node points
// at its parent, and a current_node naming the leaf of the branch the user
// last saw. Following parent pointers from current_node and reversing yields
// the visible history.
//
// # Architecture
//
// The main components are:
//   - Value: an ordered, lossless decoding of arbitrary JSON, used for message
//     content whose shape varies between exporters
//   - Parser: reads an archive into Conversations, rejecting anything that is
//     not a top-level array
//   - ExtractText: flattens heterogeneous content into plain text
//   - BuildChain: walks parent pointers into a root-to-leaf message slice
//   - RoleNames, SideOf, ExtractModel: presentation helpers for authors
//
// # Usage
//
//	convs, err := conversation.NewParser().ParseFile("conversations.json")
//	if err != nil {
//	    return err
//	}
//	chain, err := conversation.BuildChain(convs[0])
//	if err != nil {
//	    return err // cyclic parent pointers
//	}
//	for _, m := range chain {
//	    fmt.Println(roles.Display(m.Role()), m.Text())
//	}
//
// # Concurrency
//
// Parsed conversations are read-only. The only mutation after parsing is the
// per-message text cache, which is guarded by sync.Once, so conversations may
// be shared between goroutines.
package conversation
