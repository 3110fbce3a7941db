// Package frames samples a video into timestamped JPEG frames by piping an
// MJPEG stream out of ffmpeg and splitting it on JPEG image boundaries.
package frames
