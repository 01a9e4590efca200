// Package pagecontext turns one page of a site snapshot into the key/value
// context handed to templates.
//
// Building a context only reads the snapshot and the markdown sources, so a
// single Builder may serve any number of concurrent requests.
package pagecontext
