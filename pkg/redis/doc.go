// Package redis connects to a Redis server from env-tagged configuration,
// with bounded retries and a healthcheck helper. The identity cache in
// pkg/authn takes the *redis.Client this package produces.
package redis
