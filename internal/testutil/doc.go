// Package testutil contains helper builders and scripted collaborators used
// across tests to reduce boilerplate when constructing messages and driving
// engines or providers deterministically. They are not intended for
// production usage.
package testutil
