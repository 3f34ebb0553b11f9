// Package file writes converted definitions to disk.
//
// A Writer owns one output directory and stores each definition under a plain
// file name:
//
//	w, err := file.NewWriter(file.Config{Directory: "out", Indent: 2})
//	err = w.Write(req.FileName(), data)
//
// Names containing path separators are rejected, existing files are kept
// unless Overwrite is set, and every file is written to a temporary name in
// the same directory and renamed into place. The directory is created with
// mode 0755 on first write.
//
// Errors are classified: bad names and existing files are invalid, a
// directory that cannot be created is fatal, other I/O failures are
// transient.
package file
