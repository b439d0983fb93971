// Package fixture stores recorded HTTP responses on disk and serves them to a
// MockClient by key.
//
// A fixture key maps to <dir>/<key>.json (or .yaml). Keys may contain "/" to
// group fixtures into subdirectories but may never leave the store directory.
// Each file holds one response:
//
//	{
//	  "statusCode": 200,
//	  "headers": {"Content-Type": "application/json"},
//	  "data": {"id": 1, "name": "Ada"}
//	}
//
// A string data value is used as the raw body; anything else is JSON encoded.
// Files are validated against an embedded JSON Schema on load and cached, so
// each fixture is read from disk at most once per Store.
//
// A Recorder wraps a Store and a caller-supplied http.RoundTripper. When a
// fixture is missing it performs the request, saves the response with
// sensitive headers redacted and serves it from then on.
package fixture
