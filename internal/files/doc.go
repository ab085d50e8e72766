// Package files provides the file system operations shared by the output
// writers: checking or creating output directories and replacing files
// atomically so that a failed write never leaves a truncated image or
// manifest behind.
//
// Example usage:
//
//	if err := files.EnsureDir(dir, true); err != nil {
//	    return err
//	}
//	if err := files.WriteFile(filepath.Join(dir, "delta_surface.png"), data); err != nil {
//	    return err
//	}
package files
