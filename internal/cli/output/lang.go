package output

import "golang.org/x/text/language"

// supported lists the console languages. The first entry is the fallback
// for locales the matcher cannot place.
var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

// current indexes into the translation arrays, 0 = English, 1 = Chinese.
var current = 0

// SetLang switches the console language to the closest supported match.
func SetLang(tag language.Tag) {
	_, index, _ := matcher.Match(tag)
	current = index
}

// Translate returns the message for the active language. Unknown keys come
// back unchanged so a missing entry is visible instead of silent.
func Translate(key string) string {
	if entry, ok := translations[key]; ok {
		return entry[current]
	}
	return key
}

// Translations returns every message in the active language, keyed the
// same way Translate is. Used to feed help text interpolation.
func Translations() map[string]string {
	out := make(map[string]string, len(translations))
	for key, entry := range translations {
		out[key] = entry[current]
	}
	return out
}

var translations = map[string][2]string{
	// Command summaries for the help screen
	"start":       {"Start the application (default)", "启动应用（默认命令）"},
	"doctor":      {"Check the installation for problems", "检查安装是否存在问题"},
	"install":     {"Install the bundled model service", "安装内置模型服务"},
	"update":      {"Check, apply or inspect application updates", "检查、应用或查看应用更新"},
	"models":      {"List local models and the supported catalog", "列出本地模型和支持的模型库"},
	"history":     {"Show recent launches", "显示最近启动记录"},
	"config":      {"Show or change launcher settings", "查看或修改启动器设置"},
	"logs":        {"Print the launcher log", "打印启动器日志"},
	"completions": {"Generate shell completions", "生成命令行补全脚本"},
	"about":       {"Show version and license information", "显示版本和许可证信息"},

	// Global flags
	"arg.verbosity": {"Output verbosity", "输出详细程度"},
	"arg.dir":       {"Application directory to launch from", "指定应用目录"},
	"arg.nocolor":   {"Disable colored output", "禁用彩色输出"},
	"arg.nopause":   {"Do not wait for Enter after a failure", "失败后不等待按回车键"},
	"arg.lang":      {"Console language (auto, en, zh)", "界面语言 (auto, en, zh)"},

	// Per-command flags
	"start.arg.port":       {"Port for the application to listen on", "应用监听端口"},
	"start.arg.nobrowser":  {"Do not open the browser", "不自动打开浏览器"},
	"start.arg.nosidecar":  {"Do not start the model service", "不启动模型服务"},
	"start.arg.prepare":    {"Verify the environment and exit without launching", "仅检查环境，不启动应用"},
	"start.arg.args":       {"Extra arguments passed to the application", "传递给应用的额外参数"},
	"install.arg.force":    {"Reinstall even if already installed", "即使已安装也重新安装"},
	"update.check":         {"Validate an update bundle without applying it", "校验更新包但不应用"},
	"update.apply":         {"Apply an update bundle", "应用更新包"},
	"update.info":          {"Show installed versions", "显示已安装版本信息"},
	"update.arg.archive":   {"Path to the update bundle (.zip)", "更新包路径 (.zip)"},
	"update.arg.yes":       {"Apply without asking for confirmation", "跳过确认直接应用"},
	"models.arg.search":    {"Filter models by name, family or description", "按名称、系列或描述筛选模型"},
	"models.arg.installed": {"Show installed models only", "仅显示已安装模型"},
	"history.arg.clear":    {"Clear the launch history", "清除启动记录"},
	"config.arg.args":      {"list | get <key> | set <key>=<value>... | reset", "list | get <键> | set <键>=<值>... | reset"},
	"logs.arg.tail":        {"Number of trailing lines to print, 0 for all", "打印末尾行数，0 表示全部"},

	// Shared labels
	"launcher.warning":     {"warning", "警告"},
	"launcher.debug":       {"debug", "调试"},
	"launcher.error":       {"error", "错误"},
	"launcher.tip":         {"tip", "提示"},
	"launcher.press_enter": {"Press Enter to exit...", "按回车键退出..."},
	"launcher.description": {
		"LitSift launches the literature screening workbench with its bundled Python runtime and local model service.",
		"LitSift 使用内置 Python 运行时和本地模型服务启动文献筛选工作台。",
	},
	"launcher.copyright": {"© 2025 LitSift contributors", "© 2025 LitSift 贡献者"},
	"launcher.license":   {"Released under the MIT license", "基于 MIT 许可证发布"},

	// start
	"start.log_failed":        {"could not open the log file: %v", "无法打开日志文件: %v"},
	"start.history_failed":    {"could not record the launch: %v", "无法写入启动记录: %v"},
	"start.launch.cmd":        {"launch command: %s", "启动命令: %s"},
	"start.launch.pythonpath": {"PYTHONPATH: %s", "PYTHONPATH: %s"},
	"start.preparing":         {"preparing environment in %s", "正在准备环境: %s"},
	"start.prepared":          {"environment is ready, skipping launch", "环境已就绪，跳过启动"},
	"start.port":              {"application port: %d", "应用端口: %d"},
	"start.starting":          {"starting application...", "正在启动应用..."},
	"start.browser":           {"opening browser at %s", "正在打开浏览器: %s"},
	"start.browser_failed":    {"could not open the browser: %v", "无法打开浏览器: %v"},
	"start.sidecar_starting":  {"starting model service...", "正在启动模型服务..."},
	"start.sidecar_ready":     {"model service is ready", "模型服务已就绪"},
	"start.sidecar_not_ready": {"model service did not answer in time, continuing without it", "模型服务未及时响应，将在无服务的情况下继续"},
	"start.sidecar_missing":   {"model service is not installed, local models will be unavailable", "未安装模型服务，本地模型将不可用"},
	"start.sidecar_models":    {"installed local models: %s", "已安装的本地模型: %s"},
	"start.sidecar_no_models": {"no local models installed yet", "尚未安装本地模型"},
	"start.stopping_sidecar":  {"stopping model service...", "正在停止模型服务..."},
	"start.done":              {"application exited cleanly", "应用已正常退出"},
	"start.see_log":           {"see the log at", "详见日志"},

	// doctor
	"doctor.column.check":   {"CHECK", "检查项"},
	"doctor.column.status":  {"STATUS", "状态"},
	"doctor.column.details": {"DETAILS", "详情"},
	"doctor.check.entry":    {"entry script", "入口脚本"},
	"doctor.check.runtime":  {"runtime interpreter", "运行时解释器"},
	"doctor.check.libs":     {"bundled libraries", "内置依赖库"},
	"doctor.check.sidecar":  {"model service", "模型服务"},
	"doctor.check.log":      {"log file", "日志文件"},
	"doctor.ok":             {"ok", "正常"},
	"doctor.missing":        {"missing", "缺失"},
	"doctor.failed":         {"failed", "异常"},
	"doctor.optional":       {"optional", "可选"},
	"doctor.skipped":        {"skipped, runtime is missing", "已跳过，运行时缺失"},
	"doctor.writable":       {"writable", "可写"},
	"doctor.installable":    {"not installed, run 'litsift install'", "未安装，请运行 'litsift install'"},
	"doctor.probe_output":   {"probe output for %s:", "检测输出 (%s):"},
	"doctor.all_ok":         {"all checks passed", "所有检查均通过"},
	"doctor.problems":       {"%d required check(s) failed", "%d 项必需检查未通过"},

	// install
	"install.already":         {"model service is already installed, use --force to reinstall", "模型服务已安装，如需重新安装请使用 --force"},
	"install.archive_missing": {"install archive is not bundled with this package: %s", "安装包中未包含模型服务归档: %s"},
	"install.installing":      {"installing model service from %s", "正在从 %s 安装模型服务"},
	"install.bar":             {"installing", "安装中"},
	"install.done":            {"model service installed", "模型服务安装完成"},
	"install.version":         {"service version: %s", "服务版本: %s"},

	// update
	"update.staging":           {"unpacking", "解压中"},
	"update.bundle_version":    {"bundle version: %s", "更新包版本: %s"},
	"update.installed_version": {"installed version: %s", "当前版本: %s"},
	"update.unknown":           {"unknown", "未知"},
	"update.valid":             {"bundle is valid and ready to apply", "更新包有效，可以应用"},
	"update.confirm.upgrade":   {"Apply this update?", "确认应用此更新？"},
	"update.confirm.downgrade": {"The bundle is OLDER than the installed version. Downgrade?", "更新包版本低于当前版本，确定要降级吗？"},
	"update.confirm.same":      {"The bundle matches the installed version. Reinstall?", "更新包与当前版本相同，确定要重新安装吗？"},
	"update.confirm.unknown":   {"The bundle version could not be determined. Apply anyway?", "无法确定更新包版本，仍要应用吗？"},
	"update.cancelled":         {"update cancelled", "已取消更新"},
	"update.bar":               {"applying", "更新中"},
	"update.backup":            {"user data backed up to %s", "用户数据已备份到: %s"},
	"update.done":              {"update installed successfully", "更新安装成功！"},
	"update.info.launcher":     {"launcher version", "启动器版本"},
	"update.info.bundle":       {"bundle version", "应用版本"},
	"update.info.platform":     {"platform", "平台"},

	// models
	"models.fetching":           {"fetching installed models", "正在获取已安装模型"},
	"models.service_down":       {"model service is not reachable, showing the catalog only", "无法连接模型服务，仅显示模型库"},
	"models.column.name":        {"NAME", "名称"},
	"models.column.family":      {"FAMILY", "系列"},
	"models.column.description": {"DESCRIPTION", "描述"},
	"models.column.size":        {"SIZE", "大小"},
	"models.column.date":        {"DATE", "日期"},
	"models.column.installed":   {"INSTALLED", "安装状态"},
	"models.installed_yes":      {"yes", "已安装"},
	"models.installed_no":       {"no", "未安装"},
	"models.extra":              {"other installed models: %s", "其他已安装模型: %s"},
	"models.pull_hint":          {"pull a model with: ollama pull <name>", "拉取模型: ollama pull <名称>"},

	// history
	"history.empty":           {"no launches recorded yet", "暂无启动记录"},
	"history.title":           {"Recent launches", "最近启动记录"},
	"history.column.time":     {"TIME", "时间"},
	"history.column.port":     {"PORT", "端口"},
	"history.column.exit":     {"EXIT", "退出码"},
	"history.column.duration": {"DURATION", "运行时长"},
	"history.cleared":         {"launch history cleared", "启动记录已清除"},

	// config
	"config.title":          {"Launcher configuration", "启动器配置"},
	"config.file":           {"config file: %s", "配置文件: %s"},
	"config.saved":          {"configuration saved to %s", "配置已保存到: %s"},
	"config.reset":          {"configuration reset to defaults", "配置已重置为默认值"},
	"config.unknown_key":    {"unknown configuration key: %s", "未知配置项: %s"},
	"config.unknown_action": {"unknown action '%s': use list, get, set or reset", "未知操作 '%s'：请使用 list、get、set 或 reset"},
	"config.usage_get":      {"usage: config get <key>", "用法: config get <键>"},
	"config.usage_set":      {"usage: config set <key>=<value>...", "用法: config set <键>=<值>..."},
	"config.bad_pair":       {"expected <key>=<value>, got '%s'", "应为 <键>=<值> 形式，实际为 '%s'"},
	"config.unchanged":      {"nothing changed", "配置未发生变化"},
	"config.invalid":        {"invalid value for %s: %s", "配置项 %s 的值无效: %s"},

	// logs
	"logs.missing": {"no log file yet at %s", "日志文件尚不存在: %s"},
	"logs.empty":   {"log file is empty", "日志文件为空"},

	// tips shown after errors
	"tip.install":      {"run 'litsift install' to set up the model service", "运行 'litsift install' 安装模型服务"},
	"tip.run_doctor":   {"run 'litsift doctor' to diagnose the installation", "运行 'litsift doctor' 诊断安装问题"},
	"tip.use_dir":      {"run the launcher from the application directory or pass --dir", "请在应用目录下运行启动器，或使用 --dir 指定目录"},
	"tip.restore":      {"re-extract the application package to restore the bundled runtime", "请重新解压应用安装包以恢复内置运行时"},
	"tip.check_applog": {"check the application output above for the failure reason", "请查看上方的应用输出以确定失败原因"},
	"tip.internet":     {"check your internet connection", "请检查网络连接"},
	"tip.cache":        {"no cached copy is available, connect to the service once to fetch it", "没有可用的缓存副本，请先连接服务获取一次"},
}
