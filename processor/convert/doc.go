// Package convert is the conversion pipeline: raw definition payload in,
// normalized ordered tree out.
//
// Detection follows what clients actually send:
//
//  1. Input starting with '{', '[' or '"' is decoded as strict JSON.
//  2. If that fails and jsonrepair changes the text, the repaired text is
//     decoded again and the result is marked Repaired.
//  3. Anything else, or JSON that still fails, is parsed as map notation.
//  4. The tree is normalized (see package normalize).
//
// A JSON string at the root is unwrapped once and its content converted,
// so a body like "{Folder={Type=SimpleFolder}}" posted as a JSON string gives
// the same tree as the bare text. WithFormat skips detection.
//
//	conv, err := convert.New(convert.WithMetrics(registry.CoreMetrics()))
//	res, err := conv.Convert(ctx, payload)
//	out, err := res.JSON(2)
//
// Errors wrap the underlying *parser.ParseError and are classified invalid.
package convert
