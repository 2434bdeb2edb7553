package core

// MeasurementChallenge is the constant challenge path used in measurement
// mode, chosen because it exists on virtually every domain already, making
// it suitable for calibration runs.
const MeasurementChallenge = "favicon.ico"

// GenChallenge returns the path suffix a reporter will attempt to fetch
// from the target domain. In measurement mode it is the constant
// MeasurementChallenge; otherwise it's CHALLENGE_LEN random alphanumerics
// followed by "/pixel.png", sized to match a Let's Encrypt challenge token
// so the wire footprint doesn't stand out.
func (c *Config) GenChallenge() string {
	if c.MeasurementMode() {
		return MeasurementChallenge
	}
	return genRandomAlphanumString(ChallengeLen) + "/pixel.png"
}
