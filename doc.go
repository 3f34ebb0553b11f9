// Package jobmap converts scheduler job definitions exported in unquoted map
// notation into JSON.
//
// Folder exports arrive as text like
//
//	{FOLDER={Type=SimpleFolder, JOB1={Type=Job:OS400:Full:CommandLine,
//	    Message=Estimado, informo a Ud., AttachOutput=false}}}
//
// where neither keys nor values are quoted and prose values may contain
// commas. jobmap parses that notation into an ordered tree, deciding at each
// comma whether a new key starts or the value continues, applies field
// rewrites, and renders JSON with the original key order.
//
// # Layout
//
//	processor/parser      map-notation parser, comma disambiguation, ordered Value tree, JSON bridge
//	processor/jsonrepair  escapes raw control bytes inside JSON string literals
//	processor/normalize   field rewrites (path prefixing, control-character escaping)
//	processor/convert     pipeline: detect format, strict JSON, repaired JSON, map notation, normalize
//	message               deploy request envelope and its validation
//	output/file           atomic writes of converted definitions into a directory
//	config                layered JSON/YAML configuration with schema validation
//	metric                Prometheus registry and conversion metrics, textfile export
//	errors                invalid/fatal/transient classification and wrapping
//	pkg/worker            generic worker pool for batch conversion
//	cmd/jobmap            command-line entry point
//
// # Quick Start
//
//	echo '{Job={RunAs=batch, OS400-JOBD=USRPRF}}' | jobmap
//
//	jobmap -out-dir=defs -workers=4 exports/*.txt
//
//	jobmap -request -config=jobmap.yaml request.json
//
// # Library Use
//
//	conv, err := convert.New()
//	if err != nil {
//		return err
//	}
//	res, err := conv.ConvertString(ctx, text)
//	if err != nil {
//		return err // errors.IsInvalid(err) for bad payloads
//	}
//	out, err := res.JSON(2)
package jobmap
