// Package protocol implements the command-line protocol of the dfu-util tool.
//
// dfu-util has no machine-readable output format. This package builds its
// argument vectors and parses the human-readable text it prints back into
// typed records.
//
// # Argument Builders
//
// Use the *Args functions to create argument vectors:
//
//	args := protocol.ListArgs()
//	args := protocol.DetachArgs(devnum)
//	args, err := protocol.DownloadArgs(cfg)
//
// # Output Parsers
//
// Both parsers work on a single line and hold no state.
//
// ParseDevice parses one line of `dfu-util --list` output:
//
//	Found DFU: [0483:df11] ver=2200, devnum=7, cfg=1, intf=0, path="1-1", alt=0, name="@Internal Flash", serial="3276"
//
// ParseProgress parses one progress bar redraw of `dfu-util --download`:
//
//	Download	[=========                ]  36%        16384 bytes
//
// Lines that do not describe a device are reported with a *ListParseError
// naming the first missing field. Most of dfu-util's output is not progress,
// so ParseProgress reports a miss with a boolean rather than an error.
//
// # Error Handling
//
//	dev, err := protocol.ParseDevice(line)
//	var perr *protocol.ListParseError
//	if errors.As(err, &perr) && perr.Field == protocol.FieldDevNum {
//	    // line had no devnum=N
//	}
package protocol
