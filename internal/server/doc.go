// Package server implements the MCP (Model Context Protocol) server for plate detection.
//
// This package provides a JSON-RPC 2.0 server that exposes the plate detector
// and its supporting image tools through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_crop: Extract rectangular region
//
// Plate Detection:
//   - plate_detect: Locate the plate and report its bounding box
//   - plate_annotate: Write the greyscale image with the plate outlined
//   - plate_crop: Return the plate region as base64 PNG
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. "plate detection failed for car.png: no plate candidate found"
//
// # Logging
//
// Diagnostics go to the logrus logger passed to New, never to stdout, which
// carries the protocol.
//
// # Usage
//
//	srv, err := server.New(config.Default(), logger)
//	if err != nil {
//	    logger.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    logger.Fatal(err)
//	}
package server
