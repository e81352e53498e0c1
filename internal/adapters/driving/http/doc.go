// Package http provides the JSON HTTP API for uploading recordings and
// asking questions about their transcripts.
//
// Routes:
//
//	POST /upload   multipart field "audio", responds {"transcript": ...}
//	POST /chat     JSON {"question", "transcript"}, responds {"response": ...}
//	GET  /healthz  liveness probe
//	GET  /metrics  Prometheus exposition
//
// Failures are returned as {"error": ...} with a status derived from the
// domain error taxonomy.
package http
