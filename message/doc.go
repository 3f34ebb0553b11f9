// Package message defines the request envelope clients use to submit folder
// definitions for deployment.
//
// A DeployRequest names the target environment and output file and carries
// the definitions raw:
//
//	req, err := message.DecodeDeployRequest(body)
//	if err != nil { ... }
//	if err := req.Validate(cfg.Environments); err != nil { ... }
//	res, err := conv.Convert(ctx, req.JSONData)
//	err = writer.Write(req.FileName(), out)
//
// The token field is accepted for compatibility with existing clients. It is
// never validated, logged or re-serialized.
package message
