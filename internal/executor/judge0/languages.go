package judge0

import (
	"sort"
	"strings"
)

// languageIDs maps a playground language name to Judge0's numeric runtime ID.
// Names are matched case-insensitively. The IDs are stable across Judge0 CE
// deployments; adding a language is a one-line change here.
var languageIDs = map[string]int{
	"javascript": 93, // Node.js
	"typescript": 94,
	"python":     92, // Python 3
	"java":       91,
	"csharp":     86, // C# (.NET)
	"cpp":        76, // C++ (GCC)
	"ruby":       72,
	"go":         95,
}

// LanguageID resolves a language name to its Judge0 runtime ID.
func LanguageID(language string) (int, bool) {
	id, ok := languageIDs[strings.ToLower(language)]
	return id, ok
}

// SupportedLanguages returns the recognized language names, sorted.
func SupportedLanguages() []string {
	names := make([]string, 0, len(languageIDs))
	for name := range languageIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
