// Package database addresses nodes of a realtime JSON database and issues
// the five tree operations against them.
//
// A Reference is an immutable locator. Navigation derives new references:
//
//	root, err := database.New("https://project.example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	user, err := root.Child("users") // one validated segment
//	profile := user.Path("42/profile") // verbatim sub-path
//
// Operations map onto HTTP verbs:
//
//	Get    GET     read the JSON at the locator
//	Set    PUT     replace the subtree
//	Push   POST    append a child under a generated key
//	Update PATCH   merge the given keys
//	Remove DELETE  delete the subtree
//
// Errors:
//
// Invalid input is rejected before any I/O with an *InvalidArgumentError
// (ErrInvalidSegment, ErrInvalidPayload, ErrInvalidURL). Transport failures
// are returned as *http.NetworkError. A failure status such as 401 or 404 is
// not an error: the *http.Response is returned and IsSuccess reports false.
package database
