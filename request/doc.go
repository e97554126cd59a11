/*
Package request models a logical call against a manifest method: the method
descriptor, the parameters supplied by the caller, and any changes made by
middleware.

Requests are values. WithOverrides never mutates the receiver, so the
initial request, every intermediate middleware result and the final request
can be inspected independently. URL renders the path template and the query
string from the merged parameters; parameters that hold a Matcher cannot be
rendered until they are replaced by concrete values.
*/
package request
