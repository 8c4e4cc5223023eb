package ignore

// DefaultSkipPatterns lists paths that are never worth scanning when looking
// for companion files. Mostly version control, dependency checkouts, and
// build output trees common in C, C++, and Objective-C projects.
var DefaultSkipPatterns = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// Dependency checkouts
	"node_modules",
	"vendor",
	"Pods",
	"Carthage",

	// Build output
	"dist",
	"build",
	"out",
	"target",
	"obj",
	"DerivedData",
	".build",
	"CMakeFiles",
	"cmake-build-*",

	// IDE / editor state
	".idea",
	".vscode",
	".vs",
	"xcuserdata",
	"*.xcworkspace",
	"*.swp",
	"*.swo",
	"*~",

	// OS files
	".DS_Store",
	"Thumbs.db",

	// Python
	"__pycache__",
	".venv",
	"venv",

	// Compiled artifacts
	"*.o",
	"*.a",
	"*.so",
	"*.dylib",
	"*.dll",
	"*.exe",
	"*.lib",
	"*.gch",

	// Archives
	"*.zip",
	"*.tar",
	"*.tar.gz",
	"*.tgz",

	// Images and media
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.ico",
	"*.pdf",
	"*.mp3",
	"*.mp4",

	// Logs and caches
	"*.log",
	".cache",
	"coverage",
}
