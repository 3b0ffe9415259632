package profile

import (
	"strings"

	domprofile "github.com/kailas-cloud/profilesearch/internal/domain/profile"
)

// "profiles:user:idx" -> records under "profiles:user:<id>".
func (r *Repo) indexName() string { return r.userPrefix() + "idx" }

func (r *Repo) userPrefix() string { return r.keyPrefix + "user:" }

func (r *Repo) userKey(id string) string { return r.userPrefix() + id }

func (r *Repo) claimKey(usrName string) string {
	return r.keyPrefix + "usrname:" + domprofile.UsrNameKey(usrName)
}

func (r *Repo) extractID(key string) string {
	return strings.TrimPrefix(key, r.userPrefix())
}
