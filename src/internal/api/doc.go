// Package api provides the REST API for controlling the hotspot.
//
// It provides:
//   - hotspot start/stop and status
//   - hotspot configuration read and update
//   - connected stations and disconnect
//   - blocklist management
//   - supported channels
//
// Every request is turned into a state machine message, so the API never
// touches the radio or the DHCP service directly.
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "ERROR_CODE",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
package api
