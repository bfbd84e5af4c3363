package core

// System stores system information.
type System struct {
	Admins    []string
	ManagerID string
	Location  string
	Version   string
}

// IsAdmin is admin
func (s *System) IsAdmin(address string) bool {
	if len(s.Admins) == 0 {
		return false
	}

	for _, a := range s.Admins {
		if a == address {
			return true
		}
	}

	return false
}
