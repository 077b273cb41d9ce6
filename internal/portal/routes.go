package portal

import (
	"github.com/yndnr/dms-portal/internal/core/domain"
	"github.com/yndnr/dms-portal/internal/nav"
)

// Portal paths.
const (
	PathLogin           = LoginPath
	PathRequestAccount  = "/requestAccount"
	PathChangePassword  = "/changePassword"
	PathHome            = "/home"
	PathProfile         = "/profile"
	PathTrainSettings   = "/trainSettings"
	PathVisualize       = "/visualize"
	PathAnalogyTest     = "/analogyTest"
	PathAnalogyTestForm = "/analogyTestForm"
)

// Destinations that accept a navigation payload.
var (
	TrainSettingsRoute   = nav.NewRoute[domain.TrainSettingsState](PathTrainSettings)
	AnalogyTestFormRoute = nav.NewRoute[domain.AnalogyTestFormState](PathAnalogyTestForm)
)

// DefaultEntries returns the portal's route entries.
func DefaultEntries() []Entry {
	return []Entry{
		{Pattern: PathLogin, Match: Exact, New: newLoginPage},
		{Pattern: PathRequestAccount, Match: Exact, New: newRequestAccountPage},
		{Pattern: PathChangePassword, Match: Exact, Guarded: true, New: newChangePasswordPage},
		{Pattern: PathHome, Match: Exact, Guarded: true, New: newHomePage},
		{Pattern: PathProfile, Match: Exact, Guarded: true, New: newProfilePage},
		{Pattern: PathTrainSettings, Match: Prefix, Guarded: true, New: newTrainSettingsPage},
		{Pattern: PathVisualize, Match: Prefix, Guarded: true, New: newVisualizePage},
		{Pattern: PathAnalogyTest, Match: Prefix, Guarded: true, New: newAnalogyTestPage},
		{Pattern: PathAnalogyTestForm, Match: Prefix, Guarded: true, New: newAnalogyTestFormPage},
	}
}

// Routes builds the portal route table.
func Routes(deps Deps) (*Table, error) {
	t := NewTable(deps)
	for _, e := range DefaultEntries() {
		if err := t.Add(e); err != nil {
			return nil, err
		}
	}
	return t, nil
}
