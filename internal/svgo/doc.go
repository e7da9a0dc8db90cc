// Package svgo rewrites SVG markup through an ordered list of rules.
//
// A document is parsed once into an etree tree. Optimize builds a View over
// that tree, hands it to every rule in order, and serialises the result in
// compact form. The View is owned by a single Optimize call and never escapes
// it, so rules may mutate attributes freely.
//
// Rules are closed variants: they are created by the constructors in this
// package (RemoveAttrs, InferDimensions, AddContextFill and the BaseRules
// set) and cannot be implemented elsewhere. Order matters. InferDimensions
// must run before any rule that expects width, height and viewBox to exist,
// and AddContextFill must run after a RemoveAttrs rule that strips fill.
package svgo
