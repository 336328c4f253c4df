package utils

// StorageDirName 设置存储的目录名，同时作为 gdata 的 AppName
const StorageDirName = "phototree"
