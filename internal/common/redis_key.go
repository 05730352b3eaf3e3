package common

// RedisKeyDrawLock is the prefix of per-user draw admission locks.
const RedisKeyDrawLock = "drawlock"
