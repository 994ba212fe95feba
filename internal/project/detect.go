package project

import (
	"os"
	"path/filepath"
)

// Info describes a detected project tech stack. It seeds the feature list
// template so the agent knows how to build and test the project.
type Info struct {
	Type     string
	Language string
	BuildCmd string
	TestCmd  string
}

// detection maps a marker file to the stack it implies. Order matters:
// the first marker found wins.
var detections = []struct {
	marker string
	info   Info
}{
	{"go.mod", Info{Type: "go", Language: "Go", BuildCmd: "go build ./...", TestCmd: "go test ./..."}},
	{"package.json", Info{Type: "nodejs", Language: "JavaScript/TypeScript", BuildCmd: "npm run build", TestCmd: "npm test"}},
	{"pom.xml", Info{Type: "java-maven", Language: "Java", BuildCmd: "mvn clean compile -DskipTests", TestCmd: "mvn test"}},
	{"build.gradle", Info{Type: "java-gradle", Language: "Java", BuildCmd: "./gradlew build -x test", TestCmd: "./gradlew test"}},
	{"build.gradle.kts", Info{Type: "java-gradle", Language: "Java", BuildCmd: "./gradlew build -x test", TestCmd: "./gradlew test"}},
	{"Cargo.toml", Info{Type: "rust", Language: "Rust", BuildCmd: "cargo build", TestCmd: "cargo test"}},
	{"requirements.txt", Info{Type: "python", Language: "Python", BuildCmd: "pip install -r requirements.txt", TestCmd: "pytest"}},
	{"pyproject.toml", Info{Type: "python", Language: "Python", BuildCmd: "pip install -e .", TestCmd: "pytest"}},
}

// Detect inspects marker files in dir and returns the detected stack.
// Unknown stacks return a zero-command Info with Type "unknown".
func Detect(dir string) Info {
	for _, d := range detections {
		if _, err := os.Stat(filepath.Join(dir, d.marker)); err == nil {
			return d.info
		}
	}
	return Info{Type: "unknown", Language: "unknown"}
}
