package i18n

// ZhCNMessages 简体中文消息目录
// ZhCNMessages Simplified Chinese message catalog
var ZhCNMessages = map[string]string{
	// UI - 面板标题
	"panel.chat":      "对话",
	"panel.tasks":     "任务",
	"panel.dashboard": "仪表盘",
	"panel.quizzes":   "测验",

	// UI - 状态栏
	"status.ready":    "就绪",
	"status.thinking": "思考中...",
	"status.loading":  "加载中...",
	"status.offline":  "无法连接服务器",

	// UI - 输入框
	"input.placeholder": "向学习助手提问... (Shift+Enter 换行)",
	"input.submit_hint": "Enter 发送",

	// UI - 快捷键
	"keys.tab":  "tab 切换面板",
	"keys.quit": "ctrl+c 退出",

	// 对话
	"chat.new":           "新对话",
	"chat.empty":         "还没有消息，来打个招呼吧！",
	"chat.sessions":      "会话列表",
	"chat.delete_hint":   "d 删除会话",
	"chat.send_failed":   "抱歉，出错了。",
	"chat.session_count": "%d 个会话",

	// 任务
	"tasks.events":        "日历",
	"tasks.manual":        "我的任务",
	"tasks.empty_events":  "暂无日程",
	"tasks.empty_manual":  "暂无任务",
	"tasks.load_failed":   "加载日程失败：%s",
	"tasks.add_prompt":    "新任务",
	"tasks.toggle_hint":   "space 切换完成",
	"tasks.delete_hint":   "d 删除",
	"tasks.completed_tag": "已完成",

	// 仪表盘
	"dash.greeting.morning":   "早上好",
	"dash.greeting.afternoon": "下午好",
	"dash.greeting.evening":   "晚上好",
	"dash.total_chats":        "对话数",
	"dash.total_files":        "文件数",
	"dash.upcoming":           "即将到来的日程",
	"dash.knowledge":          "知识画像",
	"dash.no_profile":         "完成一次测验来建立你的知识画像",

	// 测验
	"quiz.mode_prompt":      "选择测验模式",
	"quiz.mode.upload":      "基于上传文件出题",
	"quiz.mode.recall":      "回顾昨天学习的主题",
	"quiz.mode.interview":   "模拟面试",
	"quiz.pick_file":        "选择文件",
	"quiz.job_role":         "目标岗位",
	"quiz.generating":       "正在生成题目...",
	"quiz.submit":           "提交",
	"quiz.submitting":       "评估中...",
	"quiz.score":            "得分：%d/%d（%d%%）",
	"quiz.topics":           "主题：%s",
	"quiz.failed":           "生成测验失败：%s",
	"quiz.unanswered":       "%d 题未作答",
	"quiz.overall_feedback": "总体评价",
	"quiz.rating":           "评分：%d/10",
	"quiz.recent":           "最近测验",

	// 文件
	"files.title":     "已上传文件",
	"files.empty":     "还没有上传文件",
	"files.deleted":   "已删除 %s",
	"files.uploaded":  "已上传 %s",
	"files.not_found": "找不到文件：%s",

	// 错误
	"error.network": "网络错误：%s",
	"error.server":  "服务端错误：%s",

	// 删除确认
	"confirm.delete": "确认删除 %s？",
	"confirm.hint":   "y 确认 · 其他键取消",

	// REPL 命令
	"cmd.help":      "显示可用命令",
	"cmd.new":       "开始新对话",
	"cmd.sessions":  "列出会话",
	"cmd.open":      "按 id 打开会话",
	"cmd.delete":    "按 id 删除会话",
	"cmd.tasks":     "显示日程与任务",
	"cmd.toggle":    "按 id 勾选日程或任务",
	"cmd.rmevent":   "按 id 删除日程",
	"cmd.rmtask":    "按 id 删除任务",
	"cmd.rmfile":    "删除已上传文件",
	"cmd.dashboard": "显示仪表盘统计",
	"cmd.quiz":      "开始一次测验",
	"cmd.files":     "列出已上传文件",
	"cmd.upload":    "上传学习文件",
	"cmd.history":   "显示最近测验记录",
	"cmd.exit":      "退出应用",
	"cmd.unknown":   "未知命令：%s（试试 /help）",
}
