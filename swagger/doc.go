// Package swagger loads Swagger 2.0 (OpenAPI 2.0) documents and provides the
// primitives the router builds on: ordered path templates, path template
// matching and local JSON reference resolution.
//
// See: https://swagger.io/specification/v2/
//
// # Loading
//
// Documents are parsed from JSON or YAML. Path templates keep their source
// order, which matters because routing is first-match-wins:
//
//	doc, err := swagger.Load("swagger.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, tpl := range doc.Paths() {
//	    fmt.Println(tpl)
//	}
//
// # Path Templates
//
// A Template matches request paths against "/users/{id}"-style templates.
// Each placeholder matches one or more non-slash characters; literal
// templates match by string equality:
//
//	t, _ := swagger.NewTemplate("/users/{id}")
//	t.Match("/users/42")          // true
//	t.Capture("/users/42", "id")  // "42", true
//	t.Match("/users/42/")         // false, trailing slash is significant
//
// # References
//
// Resolve inlines "#/a/b/c" references anywhere in a node, recursively:
//
//	item, _ := doc.PathItem("/users/{id}")
//	resolved, err := doc.Resolve(item)
//
// Only local references are supported. Malformed, dangling and circular
// references yield a *ReferenceError, which matches both ErrReference and
// ErrSpec with errors.Is.
package swagger
