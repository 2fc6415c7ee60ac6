// Package firmware stages firmware images on disk for the flashing tool.
//
// dfu-util reads the image from a file, while callers often hold the image in
// memory (received over a UI bridge, downloaded, or embedded). Stage writes the
// bytes to a temporary file and returns a handle whose Path can be passed on
// the tool's command line:
//
//	staged, err := firmware.Stage(image)
//	if err != nil {
//	    return err
//	}
//	defer staged.Remove()
//
//	// run dfu-util with staged.Path() and wait for it to exit
//
// The file must outlive the process reading it, so Remove is only called
// after the process has exited.
//
// Load reads an image from disk and CheckSize performs a coarse sanity check
// of its size. Neither inspects the image contents.
package firmware
