package dispatch

var templates = map[string]string{
	"help": `🎮 Welcome to Nations!
Type /game to start a game in this chat, then /join to pick your country.`,

	"private_only": `🎮 The game is only available in group chats!
Add the bot to a group and type /game there.`,

	"game_created": `🎮 The game has been created! Press /join to take part.`,

	"game_exists": `🎮 This chat already has a game!
{{- if .Game.WarActive }}
⚔️ A war is under way, wait for it to end.
{{- else if not .Player }}
Press /join to take part.
{{- end }}`,

	"choose_country": `🌍 Choose your country:`,

	"change_country": `🌍 {{ .Player.Username }}, pick your new country. Moving is free.`,

	"menu": `🌍 {{ .Country.Label }}
👤 Player: {{ .Player.Username }}
💰 Money: {{ money .Player.Money }}
⚔️ Army level: {{ .Player.ArmyLevel }}
🏙️ City level: {{ .Player.CityLevel }}
📈 Passive income: {{ printf "%.1f" .IncomePerSecond }}/s
🏆 Wins: {{ .Player.Wins }} | Losses: {{ .Player.Losses }}
{{- if .Game.WarActive }}

⚔️ A war is under way. Income is frozen until it ends.
{{- end }}

⚔️ Upgrade army ({{ money .NextArmyCost }}💰)
🏙️ Upgrade city ({{ money .NextCityCost }}💰)`,

	"stats": `📊 {{ .Player.Username }}'s statistics:

🌍 Country: {{ .Country.Label }}
💰 Money: {{ money .Player.Money }}
⚔️ Army level: {{ .Player.ArmyLevel }}
🏙️ City level: {{ .Player.CityLevel }}
📈 Passive income: {{ printf "%.1f" .IncomePerSecond }}/s
💵 Next army upgrade: {{ money .NextArmyCost }}💰
🏗️ Next city upgrade: {{ money .NextCityCost }}💰
🏆 Wins/Losses: {{ .Player.Wins }}/{{ .Player.Losses }}
🥇 Rank: {{ .Rank }} of {{ .Players }}`,

	"top": `🏆 Top players:
{{ range $i, $p := . }}
{{ add1 $i }}. {{ country $p.CountryId }} {{ $p.Username }}: {{ money $p.Money }}💰 (⚔{{ $p.ArmyLevel }} 🏙{{ $p.CityLevel }})
{{- end }}`,

	"transfer_targets": `{{ if eq .Kind "army" }}🎖️ Who should receive your army levels?{{ else }}💸 Who should receive your money?{{ end }}`,

	"transfer_prompt": `{{ if eq .Kind "army" -}}
🎖️ Type how many army levels to send to {{ .Receiver.Username }}.
You can send up to {{ .MaxLevels }}. Each level costs {{ money .CostPerLevel }}💰.
{{- else -}}
💸 Type the amount to send to {{ .Receiver.Username }}.
A {{ commission }}% commission is withheld. Your balance: {{ money .Sender.Money }}💰
{{- end }}`,

	"transfer_done": `✅ Transfer complete!

📤 From: {{ .Sender.Username }}
📥 To: {{ .Receiver.Username }}
{{- if eq .Kind "army" }}
🎖️ Army levels: {{ .Levels }}
💰 Cost: {{ money .Cost }}💰
⚔️ Your army level: {{ .Sender.ArmyLevel }}
{{- else }}
💰 Amount received: {{ money .Net }}💰
💸 Commission ({{ commission }}%): {{ money .Commission }}💰
{{- end }}
💵 Your balance: {{ money .Sender.Money }}💰`,

	"transfer_received": `{{ if eq .Kind "army" -}}
🎖️ You received {{ .Levels }} army levels from {{ .Sender.Username }}!
⚔️ Your army level: {{ .Receiver.ArmyLevel }}
{{- else -}}
💰 You received a transfer from {{ .Sender.Username }}!
💸 Amount: {{ money .Net }}💰
{{- end }}
💵 Your balance: {{ money .Receiver.Money }}💰`,

	"war_targets": `⚔️ Who do you want to attack?`,

	"war_started": `⚔️ ⚔️ ⚔️ WAR HAS BEGUN! ⚔️ ⚔️ ⚔️

{{ country .Attacker.CountryId }} {{ .Attacker.Username }} declared war on {{ country .Defender.CountryId }} {{ .Defender.Username }}!

The battle lasts {{ .Seconds }} seconds. Army and city strength decide, with a little luck.`,

	"war_image": `{{ country .Attacker.CountryId }} ⚔️ {{ country .Defender.CountryId }}`,

	"war_over": `🎉 THE WAR IS OVER! 🎉

🏆 Winner: {{ country .Winner.CountryId }} {{ .Winner.Username }}
💀 Loser: {{ country .Loser.CountryId }} {{ .Loser.Username }}

⚔️ Strength: {{ printf "%.1f" .AttackerPower }} vs {{ printf "%.1f" .DefenderPower }}
💰 Loot: {{ money .Loot }}
{{- if lt .Loot .NominalLoot }} of {{ money .NominalLoot }}, nobody drops below {{ moneyFloor }}{{ end }}`,

	"reset_done": `🗑️ The game has been reset. Type /game to start over.`,
}
