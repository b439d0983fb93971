// Package mockclient is an HTTP-interaction test double.
//
// A MockClient holds canned responses and hands them out to outgoing requests
// instead of letting them reach the network. Every request/response pair that
// passes through it is recorded so tests can assert on what was sent.
//
// # Registering responses
//
// Responses are registered either in a sequence, consumed one per request in
// insertion order, or under a match key that is looked up on every request and
// never consumed. A match key is a request type name or a URL pattern:
//
//	client, _ := mockclient.New()
//	_ = client.AddResponse(mockclient.JSONResponse(200, user), mockclient.CaptureType, "GetUser")
//	_ = client.AddResponse(mockclient.Respond(404), mockclient.CaptureAuto, "api.example.com/users/*")
//	_ = client.AddResponse(mockclient.Respond(204), mockclient.CaptureAuto, "")
//
// Keys passed with CaptureAuto are classified by shape: a key containing "/",
// "*" or ":" is a URL pattern, anything else is a type name.
//
// # Resolution order
//
// For each request the first of these wins:
//
//  1. a response registered under the request's type (then its connector type)
//  2. the most specific URL pattern matching the request URL, earliest
//     registration on ties
//  3. the next response in the sequence
//
// If none applies the request fails with a *NoMockError. A missing mock is
// never replaced by an empty response.
//
// # Response items
//
// An Item is a *Response, a FixtureRef naming a stored fixture, or a
// ResponderFunc computing the response from the request.
//
// # Assertions
//
// Assertions inspect a snapshot of the history taken when they are called and
// return an *AssertionError on failure:
//
//	if err := client.AssertSent(mockclient.Type("GetUser")); err != nil {
//		t.Fatal(err)
//	}
//	if err := client.AssertSentJSON("CreateUser", map[string]any{"name": "Ada"}); err != nil {
//		t.Fatal(err)
//	}
//
// The transport package adapts a MockClient to an http.RoundTripper, and the
// testing package binds one to a testing.TB.
package mockclient
