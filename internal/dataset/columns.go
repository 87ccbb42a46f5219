package dataset

// Canonical names of the twelve survey features the pipeline operates on.
const (
	ColCommQuality  = "comm_quality"  // quality of communication, 1-7
	ColTimeliness   = "timeliness"    // timeliness of information, 1-7
	ColTaskMgmt     = "task_mgmt"     // task-management importance, 1-7
	ColDeviceStatus = "device_status" // device as status symbol, 1-7
	ColWellness     = "wellness"      // wellness focus, 1-7
	ColAthletic     = "athletic"      // athleticism, 1-7
	ColStyle        = "style"         // style consciousness, 1-7
	ColAmznAffinity = "amzn_affinity" // Amazon platform affinity, 1-7
	ColGender       = "gender"        // 0/1 coded
	ColEducation    = "education"     // ordinal 1-5
	ColIncome       = "income"        // USD per year
	ColAge          = "age"           // years
)

// AnalysisColumns returns the analysis features in canonical order.
func AnalysisColumns() []string {
	return []string{
		ColCommQuality,
		ColTimeliness,
		ColTaskMgmt,
		ColDeviceStatus,
		ColWellness,
		ColAthletic,
		ColStyle,
		ColAmznAffinity,
		ColGender,
		ColEducation,
		ColIncome,
		ColAge,
	}
}

// LikertColumns returns the 1-7 attitude items among the analysis features.
// These get fixed [1,7] axis bounds on the radar chart.
func LikertColumns() []string {
	return []string{
		ColCommQuality,
		ColTimeliness,
		ColTaskMgmt,
		ColDeviceStatus,
		ColWellness,
		ColAthletic,
		ColStyle,
		ColAmznAffinity,
	}
}

// IsLikert reports whether the column is a 1-7 attitude item.
func IsLikert(name string) bool {
	for _, c := range LikertColumns() {
		if c == name {
			return true
		}
	}
	return false
}
