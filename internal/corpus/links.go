package corpus

import "strings"

const docsBaseURL = "https://docs.rs"

// pagePrefix maps kinds that render onto their own page to the filename
// prefix docs.rs uses for them, e.g. struct.Command.html.
var pagePrefix = map[Kind]string{
	KindStruct:    "struct",
	KindEnum:      "enum",
	KindUnion:     "union",
	KindTrait:     "trait",
	KindFunction:  "fn",
	KindMacro:     "macro",
	KindAttrMacro: "attr",
	KindDerive:    "derive",
	KindTypeAlias: "type",
	KindConstant:  "constant",
	KindStatic:    "static",
	KindPrimitive: "primitive",
}

// OwnsPage reports whether items of the given kind get a dedicated
// rendered page. Members (methods, fields, variants, associated items)
// render on their container's page instead.
func OwnsPage(k Kind) bool {
	if k == KindModule {
		return true
	}
	_, ok := pagePrefix[k]
	return ok
}

// Resolver builds deterministic docs.rs page URLs for one crate version.
// It never touches the network.
type Resolver struct {
	crateName    string
	crateVersion string
}

// NewResolver returns a resolver for the given crate. An empty version
// resolves as "latest", matching docs.rs URL conventions.
func NewResolver(crateName, crateVersion string) *Resolver {
	if crateVersion == "" {
		crateVersion = "latest"
	}
	return &Resolver{crateName: crateName, crateVersion: crateVersion}
}

// CrateURL returns the crate's docs.rs landing page,
// https://docs.rs/{crate}/{version}.
func (r *Resolver) CrateURL() string {
	return docsBaseURL + "/" + r.crateName + "/" + r.crateVersion
}

// PageURL returns the page an item's documentation renders to.
//
// Modules:    https://docs.rs/{crate}/{version}/{path.../}index.html
// Page items: https://docs.rs/{crate}/{version}/{parent...}/{prefix}.{name}.html
//
// Member kinds have no page of their own; they resolve to their parent
// path's page so that a container and its members share one URL. Two
// items with the same path prefix and page class always resolve to the
// same URL, which is what the merge stage keys on.
func (r *Resolver) PageURL(path []string, kind Kind) string {
	var b strings.Builder
	b.WriteString(docsBaseURL)
	b.WriteByte('/')
	b.WriteString(r.crateName)
	b.WriteByte('/')
	b.WriteString(r.crateVersion)

	if len(path) == 0 {
		path = []string{r.crateName}
	}

	if kind == KindModule {
		for _, seg := range path {
			b.WriteByte('/')
			b.WriteString(seg)
		}
		b.WriteString("/index.html")
		return b.String()
	}

	if prefix, ok := pagePrefix[kind]; ok {
		for _, seg := range path[:len(path)-1] {
			b.WriteByte('/')
			b.WriteString(seg)
		}
		b.WriteByte('/')
		b.WriteString(prefix)
		b.WriteByte('.')
		b.WriteString(path[len(path)-1])
		b.WriteString(".html")
		return b.String()
	}

	// Member kind reached without container context: fall back to the
	// parent path rendered as a module page.
	for _, seg := range path[:len(path)-1] {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	b.WriteString("/index.html")
	return b.String()
}

// TitleFromLink derives a human-readable name from a resolved link: the
// last path segment with the .html extension and any kind prefix
// stripped. Module links (…/index.html) use the enclosing directory.
func TitleFromLink(link string) string {
	segs := strings.Split(link, "/")
	last := segs[len(segs)-1]
	if last == "index.html" && len(segs) > 1 {
		return segs[len(segs)-2]
	}
	last = strings.TrimSuffix(last, ".html")
	if dot := strings.Index(last, "."); dot >= 0 {
		return last[dot+1:]
	}
	return last
}
