package dispatch

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
)

// Info identifies the program for the version command.
type Info struct {
	Name    string
	Version string
	Author  string
}

// String formats the version line.
func (i Info) String() string {
	return fmt.Sprintf("%s version %s by %s", i.Name, i.Version, i.Author)
}

// ReadInfo builds an Info from the binary's embedded build information.
// Name falls back to the executable name and Version to "dev".
func ReadInfo(author string) Info {
	info := Info{
		Name:    filepath.Base(os.Args[0]),
		Version: "dev",
		Author:  author,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if bi.Path != "" {
		info.Name = path.Base(bi.Path)
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	return info
}
