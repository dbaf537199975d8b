// Package references provides a small net/http handler that returns the
// records of one resource by identifier, batched through the same
// accumulator and store used for server rendering.
//
// The handler responds to GET and HEAD requests. Identifiers are read from
// repeated "id" parameters and/or a comma separated "ids" parameter; records
// come back in request order under "data", unresolved identifiers under
// "missing". The browser runtime uses it to hydrate deferred reference fields.
package references
