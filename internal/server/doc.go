// Package server exposes ChessPerm derivation and message sealing over HTTP.
//
// Routes:
//
//	POST /api/encrypt  multipart pgn, message, optional cover; returns a zip
//	POST /api/decrypt  multipart file, private_key, pgn; returns {"message"}
//	POST /api/derive   JSON DeriveRequest; returns {"key","engine","robust"}
//	GET  /healthz      {"status":"ok"}
//
// Every error reply is a JSON object with "error" and "request_id".
package server
