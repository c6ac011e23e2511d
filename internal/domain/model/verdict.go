package model

type Verdict string

const (
	VerdictAccepted          Verdict = "Accepted"
	VerdictWrongAnswer       Verdict = "Wrong Answer"
	VerdictTimeLimitExceeded Verdict = "Time Limit Exceeded"
	VerdictCompilationError  Verdict = "Compilation Error"
	VerdictRuntimeSIGSEGV    Verdict = "Runtime Error (SIGSEGV)"
	VerdictRuntimeSIGXFSZ    Verdict = "Runtime Error (SIGXFSZ)"
	VerdictRuntimeSIGFPE     Verdict = "Runtime Error (SIGFPE)"
	VerdictRuntimeSIGABRT    Verdict = "Runtime Error (SIGABRT)"
	VerdictRuntimeNZEC       Verdict = "Runtime Error (NZEC)"
	VerdictRuntimeOther      Verdict = "Runtime Error (Other)"
	VerdictRuntimeExecFormat Verdict = "Runtime Error (Exec format error)"
	VerdictInternalError     Verdict = "Internal Error"
)

// Judge0 status ids.
var verdictByStatus = map[int]Verdict{
	3:  VerdictAccepted,
	4:  VerdictWrongAnswer,
	5:  VerdictTimeLimitExceeded,
	6:  VerdictCompilationError,
	7:  VerdictRuntimeSIGSEGV,
	8:  VerdictRuntimeSIGXFSZ,
	9:  VerdictRuntimeSIGFPE,
	10: VerdictRuntimeSIGABRT,
	11: VerdictRuntimeNZEC,
	12: VerdictRuntimeOther,
	14: VerdictRuntimeExecFormat,
}

// VerdictFromStatus maps an execution status id to a verdict. Status 13 and unknown ids are Internal Error.
func VerdictFromStatus(statusID int) Verdict {
	if v, ok := verdictByStatus[statusID]; ok {
		return v
	}
	return VerdictInternalError
}

func (v Verdict) Valid() bool {
	if v == VerdictInternalError {
		return true
	}
	for _, known := range verdictByStatus {
		if known == v {
			return true
		}
	}
	return false
}

func (v Verdict) IsAccepted() bool {
	return v == VerdictAccepted
}
