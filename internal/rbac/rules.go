package rbac

// Default policy. The quiz core never checks roles itself; these rules gate
// which HTTP routes are offered to each actor. TAs author like instructors.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"attempt:create",
		"attempt:save",
		"attempt:submit",
		"attempt:view-own",
	},
	"ta": {
		"quiz:view",
		"quiz:create",
		"quiz:edit",
		"quiz:delete",
		"quiz:publish",
		"attempt:view-all",
	},
	"instructor": {
		"quiz:view",
		"quiz:create",
		"quiz:edit",
		"quiz:delete",
		"quiz:publish",
		"attempt:create",
		"attempt:save",
		"attempt:submit",
		"attempt:view-all",
	},
	"admin": {
		"*", // everything
	},
}
