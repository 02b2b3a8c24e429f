package authz

import "html/template"

// Gate is a declarative conditional-render primitive. It renders its
// children when the check passes, the fallback when it fails, and the
// loading placeholder while the client state is still loading. All
// three default to rendering nothing.
type Gate struct {
	Check    CheckSpec
	Children template.HTML
	Fallback template.HTML
	Loading  template.HTML
}

// Render picks content for the given state. The loading placeholder is
// never confused with the fallback: an undecided check renders Loading,
// a decided denial renders Fallback.
func (g Gate) Render(st State) template.HTML {
	if st.Loading {
		return g.Loading
	}
	if Allows(st.Resolution, g.Check) {
		return g.Children
	}
	return g.Fallback
}
