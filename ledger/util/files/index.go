package files

import (
	"os"
	"path"

	"github.com/Taraxa-project/networth-ledger/ledger/util"
)

func CreateDirectories(path_segments ...string) string {
	p := Path(path_segments...)
	util.PanicIfNotNil(os.MkdirAll(p, os.ModePerm))
	return p
}

func CreateDirectoriesClean(path_segments ...string) string {
	return CreateDirectories(RemoveAll(path_segments...))
}

func RemoveAll(path_segments ...string) string {
	p := Path(path_segments...)
	util.PanicIfNotNil(os.RemoveAll(p))
	return p
}

func Path(path_segments ...string) string {
	tmp := make([]string, len(path_segments))
	for i, s := range path_segments {
		if s == "~" {
			var err error
			s, err = os.UserHomeDir()
			util.PanicIfNotNil(err)
		}
		tmp[i] = s
	}
	return path.Join(tmp...)
}
