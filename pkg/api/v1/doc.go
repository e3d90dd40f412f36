// Package apiv1 defines the wire contract of the República Fácil API:
// Connect procedure names and the JSON request and response messages.
//
// Messages are plain structs encoded with JSONCodec. Clients can call any
// procedure with an HTTP POST of a JSON body to the procedure path, or with
// connect.NewClient and WithJSON.
package apiv1
