// Package transport is the partial-update transport of the page runtime.
//
// A Client issues htmx-style requests (HX-Request, HX-Current-URL),
// swaps successful responses into a target element and emits lifecycle
// events on a Bus:
//
//   - htmx:responseError when the response status is 400 or above
//   - htmx:sendError when the request could not be made at all
//   - htmx:afterRequest after every request, successful or not
//
// A Stream receives HX-Trigger payloads pushed by the server over a
// websocket and emits each one as an htmx:afterRequest event, so
// subscribers handle pushed and polled triggers the same way.
//
// Events are emitted from the page's event loop.
package transport
