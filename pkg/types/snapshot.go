// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Snapshot is the immutable input of one analysis run: the papers and
// citations supplied by the bibliographic provider and, optionally, the user
// profiles supplied by the interaction store.
type Snapshot struct {
	Papers    []Paper               `json:"papers" yaml:"papers"`
	Citations []Citation            `json:"citations" yaml:"citations"`
	Profiles  []UserCitationProfile `json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

// Profile returns the profile for userID and whether it exists.
func (s Snapshot) Profile(userID string) (UserCitationProfile, bool) {
	for _, p := range s.Profiles {
		if p.UserID == userID {
			return p, true
		}
	}
	return UserCitationProfile{}, false
}

// Peers returns every profile other than userID's, in snapshot order.
func (s Snapshot) Peers(userID string) []UserCitationProfile {
	peers := make([]UserCitationProfile, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		if p.UserID != userID {
			peers = append(peers, p)
		}
	}
	return peers
}
