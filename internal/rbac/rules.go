package rbac

// RolePermissions is the default policy. Learners only reach their own
// sessions; authors see documents, whose markup carries the answer keys.
var RolePermissions = map[string][]string{
	"learner": {
		"session:create",
		"session:act",
		"session:view",
	},
	"author": {
		"document:*",
		"session:*",
	},
	"admin": {
		"*",
	},
}
