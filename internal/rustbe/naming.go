package rustbe

// reservedWords are Rust keywords (strict, reserved and the weak ones that
// cannot name an item) that a source identifier may collide with.
var reservedWords = map[string]bool{
	"abstract": true, "as": true, "async": true, "await": true, "become": true,
	"box": true, "break": true, "const": true, "continue": true, "crate": true,
	"do": true, "dyn": true, "else": true, "enum": true, "extern": true,
	"false": true, "final": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "macro": true,
	"match": true, "mod": true, "move": true, "mut": true, "override": true,
	"priv": true, "pub": true, "ref": true, "return": true, "self": true,
	"Self": true, "static": true, "struct": true, "super": true, "trait": true,
	"true": true, "try": true, "type": true, "typeof": true, "unsafe": true,
	"unsized": true, "use": true, "virtual": true, "where": true, "while": true,
	"yield": true,
}

// EscapeIdentifier returns name unchanged unless it is a reserved word, in
// which case it is prefixed with an underscore.
func EscapeIdentifier(name string) string {
	if reservedWords[name] {
		return "_" + name
	}
	return name
}

// IsReserved reports whether name is a Rust reserved word.
func IsReserved(name string) bool {
	return reservedWords[name]
}
