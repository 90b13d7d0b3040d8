package claim

import (
	"encoding/json"

	"gorm.io/datatypes"
)

func marshalCapabilities(capabilities []string) (datatypes.JSON, error) {
	raw, err := json.Marshal(capabilities)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
