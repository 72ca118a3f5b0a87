package product

import (
	"runtime"
	"strings"
)

// UserAgentTemplate 生成者标识模板，记录在每个存储的文档上
const UserAgentTemplate = "{name}/{version} ({system} {sysArch}) Go/{goVersion}"

// UserAgent 生成者标识
var UserAgent = strings.NewReplacer(
	"{name}", Name,
	"{version}", Version,
	"{system}", runtime.GOOS,
	"{sysArch}", runtime.GOARCH,
	"{goVersion}", runtime.Version(),
).Replace(UserAgentTemplate)
