// Package ffprobe shells out to ffprobe for container inspection and parses
// its JSON output into typed results (stream layout, duration).
package ffprobe
