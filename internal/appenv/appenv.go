package appenv

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	isProd  = false
	isStag  = false
	isLocal = false
	EnvName = ""
)

func init() {
	// the real environment wins over .env, a missing file is fine on servers
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("error: can not parse the .env file: ", err)
	}

	if err := setEnvName(os.Getenv("APP_ENV")); err != nil {
		log.Fatal(err)
	}
}

func setEnvName(appEnv string) error {
	isLocal, isStag, isProd = false, false, false
	switch appEnv {
	case "", "local":
		appEnv = "local"
		isLocal = true
	case "stag":
		isStag = true
	case "prod":
		isProd = true
	default:
		return errors.New("the value for APP_ENV is not one of local, stag or prod, aborting")
	}
	EnvName = appEnv
	return nil
}

func IsProd() bool {
	return isProd
}
func IsStag() bool {
	return isStag
}
func IsLocal() bool {
	return isLocal
}

func IsStagOrLocal() bool {
	return IsStag() || IsLocal()
}

// String returns the trimmed value of key, or def when it is unset or blank.
func String(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// Int returns def when key is unset or not an integer.
func Int(key string, def int) int {
	v := String(key, "")
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("appenv: %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return i
}

// Duration accepts a time.ParseDuration value ("30s") or a plain number of seconds.
func Duration(key string, def time.Duration) time.Duration {
	v := String(key, "")
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("appenv: %s=%q is not a duration, using %s", key, v, def)
		return def
	}
	return d
}

func Bool(key string, def bool) bool {
	v := String(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// List reads a value in the DecodeEnvList format. Plain comma separated values work too.
func List(key string, def []string) []string {
	v := String(key, "")
	if v == "" {
		return def
	}
	if !strings.HasPrefix(v, "[") {
		v = "[" + v + "]"
	}
	l := DecodeEnvList(v)
	if len(l) == 0 {
		return def
	}
	return l
}
