package liveness

// globalNames видны везде без импорта; ссылки на них не считаются
// обращением к окружению with.
var globalNames = map[string]struct{}{
	"abort":           {},
	"baseNameOf":      {},
	"builtins":        {},
	"derivation":      {},
	"dirOf":           {},
	"false":           {},
	"fetchGit":        {},
	"fetchMercurial":  {},
	"fetchTarball":    {},
	"fetchTree":       {},
	"fromTOML":        {},
	"import":          {},
	"isNull":          {},
	"map":             {},
	"null":            {},
	"placeholder":     {},
	"removeAttrs":     {},
	"scopedImport":    {},
	"throw":           {},
	"toString":        {},
	"true":            {},
	"__currentSystem": {},
	"__currentTime":   {},
	"__nixPath":       {},
	"__storeDir":      {},
	"__nixVersion":    {},
	"__langVersion":   {},
}

func isGlobal(name string) bool {
	_, ok := globalNames[name]
	return ok
}
