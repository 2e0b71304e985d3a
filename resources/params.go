package resources

import (
	"strconv"

	"github.com/crmarques/shopctl/restpath"
)

// idParams collects the non-zero numeric identifiers as path parameters.
func idParams(pairs ...any) restpath.Params {
	params := restpath.Params{}
	for index := 0; index+1 < len(pairs); index += 2 {
		name, _ := pairs[index].(string)
		id, _ := pairs[index+1].(int64)
		if name == "" || id == 0 {
			continue
		}
		params[name] = strconv.FormatInt(id, 10)
	}
	return params
}
