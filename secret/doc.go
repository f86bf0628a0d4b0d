// Package secret resolves secret references in configuration values through
// the resource caches.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Providers over the parameter, secret and decrypt caches (see Provider + Registry)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Parameter:      secretref:ssm:/app/db/password
//   - Secret:         secretref:secretsmanager:prod/db
//   - Secret field:   secretref:secretsmanager:prod/db#password
//   - Decrypt:        secretref:kms:<base64 ciphertext>
//   - Inline use:     Bearer secretref:ssm:/app/api/token
//
// Resolved values are served from the caches, so repeated references to the
// same parameter or secret cost one remote call per TTL window.
package secret
