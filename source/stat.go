package source

import "os"

// StatIdentity stats path and returns its current identity string
// without opening the file. Used by the housekeeper to cheaply check
// for rotation/removal on every health-check tick.
func StatIdentity(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return identityFor(info)
}

// StatSize stats path and returns its current size.
func StatSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
