package timezone

import "time"

// ClinicTimezone is the timezone all schedule dates and times refer to.
const ClinicTimezone = "America/Sao_Paulo"

func Location() *time.Location {
	loc, err := time.LoadLocation(ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location())
}
