package config

type WorkerKeyStruct struct {
	AssignmentAuditQueue string
}

var WorkerKey = &WorkerKeyStruct{
	AssignmentAuditQueue: "assignment_audit_queue",
}
