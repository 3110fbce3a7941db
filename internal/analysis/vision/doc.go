// Package vision talks to an OpenAI-compatible chat completions endpoint
// with multimodal image support. Batches of JPEG frames are submitted as
// base64 data URIs and the streamed response is scanned so each completed
// item detection can be surfaced before the batch finishes.
package vision
