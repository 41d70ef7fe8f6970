package envvar

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Uint64 returns the uint64 value of the environment variable named n.
func Uint64(n string, args ...uint64) (uint64, bool) {
	defaultValue := uint64(0)
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := os.LookupEnv(n)
	if !ok {
		return defaultValue, false
	}

	num, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %q as uint64, incorrect format", str)
		return defaultValue, false
	}

	return num, true
}

func Int(n string, args ...int) (int, bool) {
	defaultValue := 0
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := os.LookupEnv(n)
	if !ok {
		return defaultValue, false
	}

	num, err := strconv.Atoi(str)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %q as int, incorrect format", str)
		return defaultValue, false
	}

	return num, true
}

// SetInt overwrites *v when the variable is set and parses as an int
func SetInt(n string, v *int) bool {
	i, ok := Int(n)
	if ok {
		*v = i
	}

	return ok
}
