// Package lines splits process output into lines as it arrives.
//
// Command-line tools that draw progress bars rewrite the current line with a
// carriage return instead of emitting a newline. A regular bufio.ScanLines
// consumer would only see such output once the tool prints '\n', which for
// dfu-util is at the end of a whole phase. This package treats every '\r'
// and every '\n' as an independent line terminator so that each redraw is
// delivered as its own line.
//
// # Boundaries
//
//   - "a\r\nb" yields "a", "", "b" (each terminator ends a line)
//   - "" yields nothing
//   - "a\n" yields "a" (no trailing empty line)
//   - "a" yields "a" (pending content is flushed at EOF)
//
// Lines are decoded lossily: byte sequences that are not valid UTF-8 are
// replaced with U+FFFD rather than reported as errors.
//
// # Usage
//
//	err := lines.Each(stdout, func(line string) {
//	    fmt.Println(line)
//	})
//
// Lines have no length limit.
package lines
