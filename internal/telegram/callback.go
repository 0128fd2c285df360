package telegram

import (
	"strconv"
	"strings"

	"github.com/makxca/monitorzd/internal/model"
	"github.com/makxca/monitorzd/internal/wizard"
)

// wizard button callback data, all under one prefix so a single handler
// catches them
const (
	cbPrefix      = "wz:"
	cbSave        = "wz:save"
	cbBack        = "wz:back"
	cbCancel      = "wz:cancel"
	cbStationAll  = "wz:st:all"
	cbStationDone = "wz:st:done"
	cbStation     = "wz:st:"   // + express code
	cbSeat        = "wz:seat:" // + class code, empty for any
	cbEdit        = "wz:edit:" // + step index
)

// parseCallback maps callback data onto a wizard event. Unknown or mangled
// data yields false and is dropped.
func parseCallback(data string) (wizard.Event, bool) {
	switch data {
	case cbSave:
		return wizard.Save{}, true
	case cbBack:
		return wizard.Back{}, true
	case cbCancel:
		return wizard.Cancel{}, true
	case cbStationAll:
		return wizard.SelectAllStations{}, true
	case cbStationDone:
		return wizard.ConfirmStations{}, true
	}

	switch {
	case strings.HasPrefix(data, cbStation):
		code := strings.TrimPrefix(data, cbStation)
		if code == "" {
			return nil, false
		}
		return wizard.ToggleStation{Code: code}, true

	case strings.HasPrefix(data, cbSeat):
		class, ok := model.ParseSeatClass(strings.TrimPrefix(data, cbSeat))
		if !ok {
			return nil, false
		}
		return wizard.ChooseSeatClass{Class: class}, true

	case strings.HasPrefix(data, cbEdit):
		n, err := strconv.Atoi(strings.TrimPrefix(data, cbEdit))
		if err != nil || n < int(wizard.StepDate) || n > int(wizard.StepSeat) {
			return nil, false
		}
		return wizard.EditField{Step: wizard.Step(n)}, true
	}
	return nil, false
}
