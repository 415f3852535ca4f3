package appenv

import "strings"

// decode env list values
//
// e.g: NAMES=[some name 1 , somename2 , etc...]
//
// NOTE: you can not have "," in the values. not supported.
// Empty items are dropped.
func DecodeEnvList(listAsStr string) []string {
	listAsStr = strings.TrimSpace(listAsStr)
	if len(listAsStr) < 2 || listAsStr[0] != '[' || listAsStr[len(listAsStr)-1] != ']' {
		return []string{}
	}
	listAsStr = listAsStr[1 : len(listAsStr)-1]

	arr := make([]string, 0, strings.Count(listAsStr, ",")+1)
	for _, v := range strings.Split(listAsStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			arr = append(arr, v)
		}
	}

	return arr
}
