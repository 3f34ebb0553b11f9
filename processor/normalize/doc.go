// Package normalize applies the field rewrites the deployment API requires to
// a parsed definitions tree.
//
// Two rules run on primitive values, selected by object key:
//
//   - Prefix fields (default "OS400-JOBD"): the value is trimmed and a
//     leading '*' is added when missing, so "USRPRF" becomes "*USRPRF".
//   - Escape fields (default "Message" and "Subject"): line breaks, tabs,
//     form feeds and backspaces become two-character escapes such as `\n`,
//     and any other control byte is removed.
//
// The walk is depth-first over objects and arrays, mutates the tree in place
// and is idempotent. A per-call visited set keyed by container identity keeps
// shared subtrees from being walked twice.
//
//	tree, _ := parser.Parse(text)
//	normalize.Normalize(tree)
package normalize
